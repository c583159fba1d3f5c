package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"court-booking/models"
	"court-booking/utils"
)

// SettingsRepo persists the facility configuration.
type SettingsRepo interface {
	Get(ctx context.Context) (models.FacilityConfig, error)
	Save(ctx context.Context, cfg models.FacilityConfig) error
}

type MemorySettingsRepo struct {
	mu  sync.RWMutex
	cfg models.FacilityConfig
}

func NewMemorySettingsRepo(initial models.FacilityConfig) *MemorySettingsRepo {
	return &MemorySettingsRepo{cfg: initial}
}

func (r *MemorySettingsRepo) Get(context.Context) (models.FacilityConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg, nil
}

func (r *MemorySettingsRepo) Save(_ context.Context, cfg models.FacilityConfig) error {
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
	return nil
}

const facilitySettingsKey = "settings:facility"

// RedisSettingsRepo stores the config as JSON under one key and falls back to
// the given defaults until something is saved.
type RedisSettingsRepo struct {
	client   *redis.Client
	defaults models.FacilityConfig
}

func NewRedisSettingsRepo(addr, password string, db int, defaults models.FacilityConfig) *RedisSettingsRepo {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSettingsRepo{client: rdb, defaults: defaults}
}

func (r *RedisSettingsRepo) Get(ctx context.Context) (models.FacilityConfig, error) {
	val, err := r.client.Get(ctx, facilitySettingsKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.defaults, nil
	}
	if err != nil {
		return models.FacilityConfig{}, fmt.Errorf("read facility settings: %w", err)
	}
	var cfg models.FacilityConfig
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		return models.FacilityConfig{}, fmt.Errorf("decode facility settings: %w", err)
	}
	return cfg, nil
}

func (r *RedisSettingsRepo) Save(ctx context.Context, cfg models.FacilityConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, facilitySettingsKey, data, 0).Err()
}

func (r *RedisSettingsRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSettingsRepo) Close() error { return r.client.Close() }

var facilityValidator = newFacilityValidator()

func newFacilityValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return utils.IsHHMM(fl.Field().String())
	})
	return v
}

// ValidateFacilityConfig rejects configs the booking core must never see.
func ValidateFacilityConfig(cfg models.FacilityConfig) error {
	if err := facilityValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	open, _ := utils.HHMMToHours(cfg.OpeningTime)
	closing, _ := utils.HHMMToHours(cfg.ClosingTime)
	if closing <= open {
		return fmt.Errorf("%w: closing time must be after opening time", ErrInvalidSettings)
	}
	return nil
}

// Facility is a validated config with its hours already parsed.
type Facility struct {
	models.FacilityConfig
	Open  float64
	Close float64
}

type SettingsService struct {
	repo SettingsRepo
}

func NewSettingsService(repo SettingsRepo) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context) (models.FacilityConfig, error) {
	return s.repo.Get(ctx)
}

// Facility loads the current config and parses its opening hours.
func (s *SettingsService) Facility(ctx context.Context) (Facility, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return Facility{}, err
	}
	if err := ValidateFacilityConfig(cfg); err != nil {
		return Facility{}, err
	}
	open, _ := utils.HHMMToHours(cfg.OpeningTime)
	closing, _ := utils.HHMMToHours(cfg.ClosingTime)
	return Facility{FacilityConfig: cfg, Open: open, Close: closing}, nil
}

func (s *SettingsService) Update(ctx context.Context, cfg models.FacilityConfig) (models.FacilityConfig, error) {
	cfg.OpeningTime = strings.TrimSpace(cfg.OpeningTime)
	cfg.ClosingTime = strings.TrimSpace(cfg.ClosingTime)
	if err := ValidateFacilityConfig(cfg); err != nil {
		return models.FacilityConfig{}, err
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return models.FacilityConfig{}, fmt.Errorf("failed to save facility settings: %w", err)
	}
	return cfg, nil
}
