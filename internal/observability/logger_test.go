package observability

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/grindlemire/go-relrect/internal/config"
)

func TestInitialize_OnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	Initialize(config.Logger{Level: "debug", Format: "json"}, zapcore.AddSync(&discardSyncer{}))
	first := GetLogger()
	if first == nil {
		t.Fatal("GetLogger returned nil after Initialize")
	}

	Initialize(config.Logger{Level: "error", Format: "console"}, zapcore.AddSync(&discardSyncer{}))
	if GetLogger() != first {
		t.Error("second Initialize replaced the logger")
	}
}

func TestGetLogger_BeforeInitializeIsNop(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	if Initialized() {
		t.Fatal("Initialized() true before Initialize")
	}
	// Must be safe to use.
	GetLogger().Info("no-op")
}

func TestInitialize_BadLevelFallsBack(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	Initialize(config.Logger{Level: "shouting", Format: "console"}, zapcore.AddSync(&discardSyncer{}))
	if !Initialized() {
		t.Fatal("Initialize failed with an unknown level")
	}
	if !GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("fallback level should enable info")
	}
}

type discardSyncer struct{}

func (d *discardSyncer) Write(p []byte) (int, error) { return len(p), nil }
func (d *discardSyncer) Sync() error                 { return nil }
