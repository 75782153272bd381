package consul

import "testing"

func TestFeedService(t *testing.T) {
	cfg := FeedService("10.0.0.5", 8080)

	if cfg.ID != "dishfeed-10.0.0.5" || cfg.Name != ServiceName {
		t.Errorf("Unexpected identity %s/%s", cfg.ID, cfg.Name)
	}
	if cfg.Check == nil || cfg.Check.HTTP != "http://10.0.0.5:8080/health" {
		t.Fatalf("Expected /health check, got %+v", cfg.Check)
	}

	reg := registration(cfg)
	if reg.Port != 8080 || reg.Check.DeregisterCriticalServiceAfter != "1m" {
		t.Errorf("Unexpected registration %+v", reg)
	}
}

func TestRegistrationWithoutCheck(t *testing.T) {
	reg := registration(&ServiceConfig{ID: "x", Name: "x"})
	if reg.Check != nil {
		t.Errorf("Expected no check, got %+v", reg.Check)
	}
}
