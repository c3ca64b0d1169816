package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/kochabx/paseto/core/auth/token"
	"github.com/kochabx/paseto/core/auth/token/cache/redis"
	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/log"
	middleware "github.com/kochabx/paseto/middleware/http"
	"github.com/kochabx/paseto/transport"
	khttp "github.com/kochabx/paseto/transport/http"
)

const shutdownTimeout = 10 * time.Second

// Claims is the claims type of tokens issued and served by the CLI.
type Claims struct {
	token.RegisteredClaims
	Data map[string]any `json:"data,omitempty"`
}

func issueFlags(a *app, fs *pflag.FlagSet) {
	fs.StringVarP(&a.subject, "subject", "s", "", "sub claim")
	fs.StringVar(&a.data, "data", "", "JSON object stored in the data claim")
}

func serveFlags(a *app, fs *pflag.FlagSet) {
	fs.StringVar(&a.addr, "addr", "", "listen address (default: server.addr from the configuration)")
}

// keyring loads the configured keys for the token purpose. Issuing needs the
// secret key for sign tokens, serving only the public key.
func (a *app) keyring(issue bool) (*token.Keyring, error) {
	keys := token.NewKeyring()
	kid := a.cfg.Keys.KeyID

	switch a.cfg.Token.Purpose {
	case paseto.PurposeSign:
		if issue {
			key, err := paseto.LoadSecretKey(a.key(a.cfg.Keys.Secret))
			if err != nil {
				return nil, err
			}
			_, err = keys.AddSecret(kid, key)
			return keys, err
		}
		key, err := paseto.LoadPublicKey(a.key(a.cfg.Keys.Public))
		if err != nil {
			return nil, err
		}
		_, err = keys.AddPublic(kid, key)
		return keys, err
	default:
		key, err := paseto.LoadSymmetricEncryptionKey(a.key(a.cfg.Keys.Local))
		if err != nil {
			return nil, err
		}
		_, err = keys.AddLocal(kid, key)
		return keys, err
	}
}

func (a *app) authenticator(keys *token.Keyring, opts ...token.Option) (*token.Authenticator[*Claims], error) {
	cfg := a.cfg.Token
	return token.NewWithConfig[*Claims](keys, &cfg, opts...)
}

func runIssue(ctx context.Context, a *app) error {
	keys, err := a.keyring(true)
	if err != nil {
		return err
	}
	auth, err := a.authenticator(keys)
	if err != nil {
		return err
	}

	claims := &Claims{}
	claims.Subject = a.subject
	if a.data != "" {
		if err := json.Unmarshal([]byte(a.data), &claims.Data); err != nil {
			return fmt.Errorf("%w: -data must be a JSON object: %v", errUsage, err)
		}
	}

	t, err := auth.Issue(ctx, claims)
	if err != nil {
		return err
	}
	log.Info().Str("kid", keys.Current()).Str("jti", claims.ID).Time("exp", claims.ExpiresAt.Time).Msg("token issued")
	_, err = fmt.Fprintln(a.stdout, t)
	return err
}

func runServe(ctx context.Context, a *app) error {
	addr := a.cfg.Server.Addr
	if a.addr != "" {
		addr = a.addr
	}
	addr, err := transport.ParseAddress(addr)
	if err != nil {
		return err
	}

	keys, err := a.keyring(false)
	if err != nil {
		return err
	}

	var opts []token.Option
	if a.cfg.Revocation.Enabled {
		client, err := redis.NewClient(ctx, &a.cfg.Revocation.Redis, redis.WithLogger(log.G), redis.WithMetrics())
		if err != nil {
			return err
		}
		defer client.Close()
		opts = append(opts, token.WithBlacklist(redis.NewBlacklist(client, redis.WithKeyPrefix(a.cfg.Revocation.Redis.KeyPrefix))))
	}

	auth, err := a.authenticator(keys, opts...)
	if err != nil {
		return err
	}

	srv := khttp.NewServer(addr, newRouter(auth),
		khttp.WithMeta(khttp.Meta{Name: "paseto"}),
		khttp.WithMetricsOptions(a.cfg.Server.Metrics),
		khttp.WithHealthOptions(a.cfg.Server.Health),
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(srv.Run)
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Str("addr", srv.Addr()).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// newRouter serves
//
//	GET  /v1/introspect  claims of the bearer token
//	POST /v1/revoke      revokes the bearer token until it expires
func newRouter(auth *token.Authenticator[*Claims]) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger(middleware.LoggerConfig{SkipPaths: []string{"/health", "/metrics"}}))

	v1 := r.Group("/v1", middleware.Auth(middleware.AuthConfig[*Claims]{Authenticator: auth}))
	v1.GET("/introspect", func(c *gin.Context) {
		claims, _ := middleware.GetClaims[*Claims](c.Request.Context())
		khttp.GinJSON(c, claims)
	})
	v1.POST("/revoke", func(c *gin.Context) {
		raw, err := middleware.BearerExtractor()(c)
		if err != nil {
			khttp.GinError(c, err)
			return
		}
		if err := auth.Revoke(c.Request.Context(), raw, 0); err != nil {
			khttp.GinError(c, err)
			return
		}
		khttp.GinJSON(c, nil)
	})
	return r
}
