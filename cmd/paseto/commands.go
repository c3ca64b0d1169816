package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/log"
)

func keygenFlags(a *app, fs *pflag.FlagSet) {
	fs.StringVarP(&a.purpose, "purpose", "p", string(paseto.PurposeEncrypt), "auth, enc, sign or seal")
	fs.StringVarP(&a.dir, "dir", "d", "", "output directory (default: the directories of the configured key files)")
}

func runKeygen(_ context.Context, a *app) error {
	p, err := paseto.ParsePurpose(a.purpose)
	if err != nil {
		return err
	}
	v := a.cfg.Version

	place := func(path string) (string, string) {
		if a.dir != "" {
			return a.dir, filepath.Base(path)
		}
		return filepath.Dir(path), filepath.Base(path)
	}

	switch p {
	case paseto.PurposeAuth, paseto.PurposeEncrypt:
		dir, name := place(a.key(a.cfg.Keys.Local))
		path, err := paseto.GenerateSymmetricKeyFile(v, p, paseto.WithDirpath(dir), paseto.WithLocalKeyFilename(name))
		if err != nil {
			return err
		}
		log.Info().Str("version", v.String()).Str("purpose", string(p)).Str("path", path).Msg("key generated")
		fmt.Fprintln(a.stdout, path)
		return nil
	}

	if p == paseto.PurposeSeal && v == paseto.V3 {
		return paseto.ErrUnsupportedOperation.WithMetadata(map[string]string{"version": v.String(), "op": "seal"})
	}

	secretDir, secretName := place(a.cfg.Keys.Secret)
	_, publicName := place(a.cfg.Keys.Public)
	secretPath, publicPath, err := paseto.GenerateKeyFiles(v,
		paseto.WithDirpath(secretDir),
		paseto.WithSecretKeyFilename(secretName),
		paseto.WithPublicKeyFilename(publicName),
	)
	if err != nil {
		return err
	}
	log.Info().Str("version", v.String()).Str("purpose", string(p)).
		Str("secret", secretPath).Str("public", publicPath).Msg("key pair generated")
	fmt.Fprintln(a.stdout, secretPath)
	fmt.Fprintln(a.stdout, publicPath)
	return nil
}

func runAuth(_ context.Context, a *app) error {
	key, err := paseto.LoadSymmetricAuthenticationKey(a.key(a.cfg.Keys.Local))
	if err != nil {
		return err
	}
	defer key.Destroy()

	return a.create(key.Version(), func(p paseto.Protocol, msg []byte) (string, error) {
		return p.Auth(msg, key, []byte(a.footer))
	})
}

func runAuthVerify(_ context.Context, a *app) error {
	key, err := paseto.LoadSymmetricAuthenticationKey(a.key(a.cfg.Keys.Local))
	if err != nil {
		return err
	}
	defer key.Destroy()

	return a.open(key.Version(), func(p paseto.Protocol, token string, footer []byte) ([]byte, error) {
		return p.AuthVerify(token, key, footer)
	})
}

func runEncrypt(_ context.Context, a *app) error {
	key, err := paseto.LoadSymmetricEncryptionKey(a.key(a.cfg.Keys.Local))
	if err != nil {
		return err
	}
	defer key.Destroy()

	return a.create(key.Version(), func(p paseto.Protocol, msg []byte) (string, error) {
		return p.Encrypt(msg, key, []byte(a.footer))
	})
}

func runDecrypt(_ context.Context, a *app) error {
	key, err := paseto.LoadSymmetricEncryptionKey(a.key(a.cfg.Keys.Local))
	if err != nil {
		return err
	}
	defer key.Destroy()

	return a.open(key.Version(), func(p paseto.Protocol, token string, footer []byte) ([]byte, error) {
		return p.Decrypt(token, key, footer)
	})
}

func runSign(_ context.Context, a *app) error {
	key, err := paseto.LoadSecretKey(a.key(a.cfg.Keys.Secret))
	if err != nil {
		return err
	}
	defer key.Destroy()

	return a.create(key.Version(), func(p paseto.Protocol, msg []byte) (string, error) {
		return p.Sign(msg, key, []byte(a.footer))
	})
}

func runSignVerify(_ context.Context, a *app) error {
	key, err := paseto.LoadPublicKey(a.key(a.cfg.Keys.Public))
	if err != nil {
		return err
	}

	return a.open(key.Version(), func(p paseto.Protocol, token string, footer []byte) ([]byte, error) {
		return p.SignVerify(token, key, footer)
	})
}

func runSeal(_ context.Context, a *app) error {
	key, err := paseto.LoadPublicKey(a.key(a.cfg.Keys.Public))
	if err != nil {
		return err
	}

	return a.create(key.Version(), func(p paseto.Protocol, msg []byte) (string, error) {
		return p.Seal(msg, key, []byte(a.footer))
	})
}

func runUnseal(_ context.Context, a *app) error {
	key, err := paseto.LoadSecretKey(a.key(a.cfg.Keys.Secret))
	if err != nil {
		return err
	}
	defer key.Destroy()

	return a.open(key.Version(), func(p paseto.Protocol, token string, footer []byte) ([]byte, error) {
		return p.Unseal(token, key, footer)
	})
}

func runFooter(_ context.Context, a *app) error {
	token, err := a.token()
	if err != nil {
		return err
	}
	footer, err := paseto.ExtractFooter(token)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(footer)
	return err
}

// create reads the message and prints the token made by fn.
func (a *app) create(v paseto.Version, fn func(paseto.Protocol, []byte) (string, error)) error {
	p, err := a.protocol(v)
	if err != nil {
		return err
	}
	msg, err := a.input()
	if err != nil {
		return err
	}

	token, err := fn(p, msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, token)
	return err
}

// open reads the token and prints the message returned by fn.
func (a *app) open(v paseto.Version, fn func(paseto.Protocol, string, []byte) ([]byte, error)) error {
	p, err := a.protocol(v)
	if err != nil {
		return err
	}
	token, err := a.token()
	if err != nil {
		return err
	}
	footer, err := a.footerFor(token)
	if err != nil {
		return err
	}

	msg, err := fn(p, token, footer)
	if err != nil {
		log.Debug().Err(err).Str("header", header(token)).Msg("token rejected")
		return err
	}
	_, err = a.stdout.Write(msg)
	return err
}

// header returns the "vN.purpose" prefix of a token for log fields.
func header(token string) string {
	t, err := paseto.Parse(token)
	if err != nil {
		return ""
	}
	return t.Header()
}
