/*
Package log provides structured logging for the server using zerolog.

A single global Logger is initialized once via Init and used from every
package. Component- and request-scoped child loggers are created with
WithComponent, WithConnID, and WithTxnID so that related log lines share
consistent fields without threading a logger through every call.

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	sessionLog := log.WithConnID(uuid.NewString())
	sessionLog.Info().Msg("session started")
*/
package log
