package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cesargomez89/tajikquran/internal/domain"
	"github.com/cesargomez89/tajikquran/internal/logger"
	"github.com/cesargomez89/tajikquran/internal/store"
)

// SettingsService loads and saves versioned reader settings.
type SettingsService struct {
	Repo     *store.SettingsRepo
	Logger   *logger.Logger
	validate *validator.Validate
}

func NewSettingsService(repo *store.SettingsRepo, log *logger.Logger) *SettingsService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &SettingsService{Repo: repo, Logger: log, validate: v}
}

// Load returns the user's settings, defaults when none are stored.
func (s *SettingsService) Load(ctx context.Context, sess domain.Session) (domain.ReaderSettings, error) {
	if sess.UserID == nil {
		return domain.DefaultReaderSettings(), nil
	}
	settings, found, err := s.Repo.Get(ctx, *sess.UserID)
	if err != nil {
		return domain.ReaderSettings{}, err
	}
	if !found {
		return domain.DefaultReaderSettings(), nil
	}
	return settings.Upgrade(), nil
}

// Save validates settings and stores them with the current version.
func (s *SettingsService) Save(ctx context.Context, sess domain.Session, settings domain.ReaderSettings) (domain.ReaderSettings, error) {
	if sess.UserID == nil {
		return domain.ReaderSettings{}, domain.NewValidation("userId", "user id is required")
	}
	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.ReaderSettings{}, domain.NewValidation(fe.Field(), fmt.Sprintf("failed on %s %s", fe.Tag(), fe.Param()))
		}
		return domain.ReaderSettings{}, domain.NewValidation("settings", err.Error())
	}

	settings.Version = domain.CurrentSettingsVersion
	if err := s.Repo.Set(ctx, *sess.UserID, settings); err != nil {
		return domain.ReaderSettings{}, err
	}
	s.Logger.Debug("Settings saved", "user_id", *sess.UserID)
	return settings, nil
}

// Reset drops the user's stored settings so the next Load returns defaults.
func (s *SettingsService) Reset(ctx context.Context, sess domain.Session) error {
	if sess.UserID == nil {
		return domain.NewValidation("userId", "user id is required")
	}
	if err := s.Repo.Delete(ctx, *sess.UserID); err != nil {
		return err
	}
	s.Logger.Debug("Settings reset", "user_id", *sess.UserID)
	return nil
}
