package api

import (
	"strings"
	"testing"
	"time"

	"github.com/Adithecoder/SocialM-sub001/internal/auth"
	"github.com/Adithecoder/SocialM-sub001/internal/config"
)

func TestNewApi(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authSvc := auth.NewService(nil, tokens)

	t.Run("ValidConfig", func(t *testing.T) {
		cfg := &config.Config{APIPort: 8080}
		apiInstance, err := NewApi(cfg, authSvc)
		if err != nil {
			t.Fatalf("NewApi failed with valid config: %v", err)
		}
		if apiInstance == nil {
			t.Fatal("NewApi returned nil with valid config")
		}
		if apiInstance.Config.APIPort != 8080 {
			t.Errorf("Expected APIPort 8080, got %d", apiInstance.Config.APIPort)
		}
	})

	t.Run("InvalidConfigZeroPort", func(t *testing.T) {
		cfg := &config.Config{APIPort: 0}
		_, err := NewApi(cfg, authSvc)
		if err == nil {
			t.Fatal("NewApi should have failed with zero APIPort, but it didn't")
		}
		if !strings.Contains(err.Error(), "port") {
			t.Errorf("Expected port error, got '%s'", err.Error())
		}
	})
}
