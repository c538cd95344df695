package logx

import "github.com/sirupsen/logrus"

// New bikin logger JSON dengan level dari config (fallback ke info).
func New(service, level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.AddHook(&serviceHook{service: service})
	return l
}

type serviceHook struct{ service string }

func (h *serviceHook) Levels() []logrus.Level { return logrus.AllLevels }
func (h *serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = h.service
	return nil
}
