// Package logging provides structured logging for the aiactqa client.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug) for request and response bodies
//   - Rotating file output (lumberjack) and optional stderr
//   - Automatic context field injection (trace_id, session.id, request.id)
//   - Level-aware sampling (errors never sampled)
//
// Stdout is never a log target: it carries answers in one-shot mode and
// the terminal UI in interactive mode.
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	cfg.Output.File.Path = "/home/me/.config/aiactqa/logs/aiactqa.log"
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, id)
//	logger.Info(ctx, "answer received", zap.Int("passages", n))
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	client := qa.NewClient(url, qa.WithLogger(tl.Logger))
//	tl.AssertLogged(t, zapcore.InfoLevel, "answer received")
package logging
