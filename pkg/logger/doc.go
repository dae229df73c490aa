// Package logger builds *slog.Logger values for blogkit components.
//
// New wraps a JSON or text handler with a decorator that copies request
// scoped values (request id, acting user) from the context into each record:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "blogkit"),
//	    logger.WithContextExtractors(logger.RequestIDExtractor(), rbac.ActorExtractor()),
//	)
//	log.InfoContext(ctx, "post created", logger.Table("posts"))
//
// The attribute helpers in attr.go keep key names consistent. Error and
// Errors return an empty attribute for nil errors, so they can be passed
// unconditionally.
//
// Components accept a logger through an option and fall back to Discard.
package logger
