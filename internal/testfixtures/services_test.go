package testfixtures

import (
	"testing"
	"time"
)

func TestServiceFactoryDefaults(t *testing.T) {
	factory := NewServiceFactory()

	if factory.Clock == nil || factory.IDGenerator == nil {
		t.Fatalf("expected defaults, got %+v", factory)
	}

	svc := factory.NewTimeEntryService(TimeEntryServiceDeps{})
	if svc == nil {
		t.Fatal("expected a time entry service")
	}

	auth := factory.NewAuthService(AuthServiceDeps{})
	if auth == nil {
		t.Fatal("expected an auth service")
	}
}

func TestServiceFactoryOverrides(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := NewClock(start)
	gen := NewIDGenerator("svc")

	factory := NewServiceFactory(WithClock(clock), WithIDGenerator(gen))

	if !factory.Clock.Now().Equal(start) {
		t.Fatalf("expected the injected clock, got %v", factory.Clock.Now())
	}
	if got := factory.IDGenerator.Next(); got != "svc-1" {
		t.Fatalf("expected the injected generator, got %q", got)
	}
}
