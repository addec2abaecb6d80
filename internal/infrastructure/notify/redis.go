package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// message sobre enviado por el canal de Redis.
type message struct {
	Scope        entity.NotificationScope `json:"scope"`
	Notification entity.Notification      `json:"notification"`
}

// NewRedisClient parsea la URL y verifica la conexión.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url inválida: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return rdb, nil
}

// RedisPublisher publica las notificaciones en un canal compartido por todas las instancias.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

var _ ports.NotificationPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher construye el publicador.
func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// Emit implementa ports.NotificationPublisher.
func (p *RedisPublisher) Emit(ctx context.Context, scope entity.NotificationScope, n entity.Notification) error {
	payload, err := json.Marshal(message{Scope: scope, Notification: n})
	if err != nil {
		return fmt.Errorf("serializar notificación: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publicar en redis: %w", err)
	}
	return nil
}

// RedisRelay entrega al hub local lo publicado en el canal.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	target  ports.NotificationPublisher
	log     *logger.Logger
}

// NewRedisRelay construye el relay hacia target (normalmente el Hub).
func NewRedisRelay(rdb *redis.Client, channel string, target ports.NotificationPublisher, log *logger.Logger) *RedisRelay {
	return &RedisRelay{rdb: rdb, channel: channel, target: target, log: log.Component("redis-relay")}
}

// Run bloquea hasta que ctx se cancele.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("suscribir a %s: %w", r.channel, err)
	}
	r.log.Info().Str("channel", r.channel).Msg("suscrito a notificaciones")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.deliver(ctx, msg.Payload)
		}
	}
}

func (r *RedisRelay) deliver(ctx context.Context, payload string) {
	var m message
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		r.log.Warn().Err(err).Msg("mensaje de redis inválido")
		return
	}
	if m.Scope == "" {
		return
	}
	if err := r.target.Emit(ctx, m.Scope, m.Notification); err != nil {
		r.log.Warn().Err(err).Msg("entrega local")
	}
}
