// Package logging builds the structured loggers used across mockfactory.
//
// It wraps log/slog. Components accept a *slog.Logger through an option and
// fall back to Nop() when none is given:
//
//	cfg, err := logging.FromFlags("debug", "json")
//	if err != nil {
//	    return err
//	}
//	s, err := factory.NewSession(schema, reg, factory.WithLogger(logging.New(cfg)))
package logging
