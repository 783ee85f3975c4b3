package writer

import (
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/raw"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
)

// LogInterceptor logs every written object at Debug.
type LogInterceptor struct {
	Log observability.Logger

	Objects int
	Bytes   int64
}

func (l *LogInterceptor) BeforeWrite(Context, raw.ObjectRef, raw.Object) error { return nil }

func (l *LogInterceptor) AfterWrite(_ Context, ref raw.ObjectRef, n int64) error {
	l.Objects++
	l.Bytes += n
	if l.Log != nil {
		l.Log.Debug("pdf object written", observability.Int("object", ref.Num), observability.Int64("bytes", n))
	}
	return nil
}
