package errors

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapHandler is an ErrorHandler that writes structured entries to a zap logger.
//
// Duplicate identities and unknown type tags are recovered locally, so they
// are logged at warn level; everything else is logged at error level.
type ZapHandler struct {
	Logger *zap.Logger
	// Stacks attaches captured stack traces to each entry.
	Stacks bool
}

// NewZapHandler returns a handler writing to logger.
// A nil logger yields a no-op handler.
func NewZapHandler(logger *zap.Logger) *ZapHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapHandler{Logger: logger}
}

// HandleError logs a BindError with its fields.
func (h *ZapHandler) HandleError(err *BindError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Handle != 0 {
		fields = append(fields, zap.Uintptr("handle", err.Handle))
	}
	if err.Tag != "" {
		fields = append(fields, zap.String("tag", err.Tag))
	}
	if h.Stacks && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.Logger.Log(levelFor(err.Kind), "gbind error", fields...)
}

// HandlePanic logs a PanicError.
func (h *ZapHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	}
	if h.Stacks && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.Logger.Error("gbind panic", fields...)
}

func levelFor(k ErrorKind) zapcore.Level {
	switch k {
	case KindDuplicate, KindUnknownType, KindStructure:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
