package scenario

import (
	"context"
	"fmt"
	"time"

	"paintly-probe/internal/config"
	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"

	"go.uber.org/zap"
)

// SignIn gets the browser into an authenticated session.
type SignIn struct {
	Mode     config.AuthMode
	Email    string
	Password string
	// PollAttempts and PollInterval bound the wait for the app to land on
	// an authenticated page.
	PollAttempts int
	PollInterval time.Duration
}

func NewSignIn(cfg *config.Config) *SignIn {
	return &SignIn{
		Mode:         cfg.AuthMode,
		Email:        cfg.Email,
		Password:     cfg.Password,
		PollAttempts: cfg.AuthPollSeconds,
		PollInterval: time.Second,
	}
}

func (s *SignIn) Name() string { return "signin" }

func (s *SignIn) Run(ctx context.Context, env *Env) error {
	if s.Mode == config.AuthCookies {
		return s.checkSession(ctx, env)
	}

	if err := env.Page.Goto(ctx, env.Config.SignInURL()); err != nil {
		return fmt.Errorf("open sign-in page: %w", err)
	}
	env.Page.Settle(ctx)
	env.Page.Capture("signin_page", "Sign-in page loaded")

	var err error
	switch s.Mode {
	case config.AuthCredentials:
		err = s.credentials(ctx, env)
	case config.AuthGoogle:
		err = s.google(ctx, env)
	case config.AuthManual:
		s.manual(ctx, env)
	default:
		err = fmt.Errorf("unsupported auth mode %q", s.Mode)
	}
	if err != nil {
		return err
	}

	if s.Mode == config.AuthManual {
		env.Logger.Info("👤 Waiting for sign-in in the browser window",
			zap.Int("attempts", s.PollAttempts), zap.Duration("interval", s.PollInterval))
	}
	landed, err := WaitForAuth(ctx, env.Page.URL, s.PollAttempts, s.PollInterval)
	if err != nil {
		return fmt.Errorf("still on %s: %w", landed, err)
	}
	env.Summary.Pass(s.Name(), "authenticated", landed)
	env.Page.Capture("signed_in", "Signed in")
	return nil
}

func (s *SignIn) credentials(ctx context.Context, env *Env) error {
	steps := []struct {
		target string
		act    locator.Action
	}{
		{targets.EmailInput, locator.Fill(s.Email)},
		{targets.PasswordInput, locator.Fill(s.Password)},
		{targets.SignInSubmit, locator.Click},
	}
	for _, step := range steps {
		res, err := env.MustAct(ctx, step.target, step.act)
		if err != nil {
			return err
		}
		env.Summary.Pass(s.Name(), step.target, res.String())
	}
	env.Page.Settle(ctx)
	return nil
}

func (s *SignIn) google(ctx context.Context, env *Env) error {
	if _, err := env.MustAct(ctx, targets.GoogleButton, locator.Click); err != nil {
		return err
	}
	env.Page.Settle(ctx)

	steps := []struct {
		target string
		act    locator.Action
	}{
		{targets.GoogleIdentifier, locator.Fill(s.Email)},
		{targets.GoogleIdentifyNext, locator.Click},
		{targets.GooglePassword, locator.Fill(s.Password)},
		{targets.GooglePasswordNext, locator.Click},
	}
	for _, step := range steps {
		if _, err := env.MustAct(ctx, step.target, step.act); err != nil {
			return err
		}
		env.Page.Settle(ctx)
	}
	env.Summary.Pass(s.Name(), "google flow", "credentials submitted")
	return nil
}

// manual opens the provider dialog when it can and leaves the rest to the
// person at the keyboard.
func (s *SignIn) manual(ctx context.Context, env *Env) {
	res, err := env.Act(ctx, targets.GoogleButton, locator.Click)
	switch {
	case err != nil:
		env.Summary.Info(s.Name(), targets.GoogleButton, err.Error())
	case !res.Found:
		env.Summary.Info(s.Name(), targets.GoogleButton, "not found, sign in with any method")
	default:
		env.Summary.Pass(s.Name(), targets.GoogleButton, res.String())
	}
}

func (s *SignIn) checkSession(ctx context.Context, env *Env) error {
	if err := env.Page.Goto(ctx, env.Config.BaseURL+"/dashboard"); err != nil {
		return fmt.Errorf("open dashboard: %w", err)
	}
	env.Page.Settle(ctx)
	landed, err := WaitForAuth(ctx, env.Page.URL, 3, s.PollInterval)
	if err != nil {
		return fmt.Errorf("cookies rejected, redirected to %s: %w", landed, err)
	}
	env.Summary.Pass(s.Name(), "session cookies", landed)
	return nil
}
