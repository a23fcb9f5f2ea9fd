package wamp

import (
	"context"
	"errors"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
	"go.uber.org/zap"

	"github.com/joshgregory42/f1-analysis-2021/log"
)

var ErrNoResults = errors.New("no results")

type (
	ConnectConfig struct {
		URL    string
		Realm  string
		AuthID string
		Ticket string // enables ticket authentication when set
		Logger *log.Logger
	}
	ConnectFunc func(cfg *ConnectConfig)
)

func WithAuth(authID, ticket string) ConnectFunc {
	return func(cfg *ConnectConfig) {
		cfg.AuthID = authID
		cfg.Ticket = ticket
	}
}

func WithLogger(l *log.Logger) ConnectFunc {
	return func(cfg *ConnectConfig) {
		cfg.Logger = l
	}
}

func clientConfig(cfg *ConnectConfig) client.Config {
	ret := client.Config{
		Realm:  cfg.Realm,
		Logger: zap.NewStdLog(cfg.Logger.ZapLogger()),
	}
	if cfg.Ticket != "" {
		authID := cfg.AuthID
		if authID == "" {
			authID = "analysis"
		}
		ret.HelloDetails = wamp.Dict{"authid": authID}
		ret.AuthHandlers = map[string]client.AuthFunc{
			"ticket": func(*wamp.Challenge) (string, wamp.Dict) {
				return cfg.Ticket, wamp.Dict{}
			},
		}
	}
	return ret
}

// Connect opens a WAMP session on the router at url.
func Connect(ctx context.Context, url, realm string, opts ...ConnectFunc) (*client.Client, error) {
	cfg := &ConnectConfig{URL: url, Realm: realm, Logger: log.Default().Named("wamp")}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Logger.Info("Connecting to", log.String("url", url), log.String("realm", realm))
	return client.ConnectNet(ctx, url, clientConfig(cfg))
}
