// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify carries session events to whoever delivers them.

Events are published only after the change they describe has committed.
Publishing never blocks or fails a request: errors are logged by the
caller and dropped.

# Sinks

  - LogSink writes each event to slog.
  - QueueSink enqueues the event on Redis through asynq.
  - Fanout publishes to several sinks.
  - Recorder keeps events in memory (tests).

# Worker

Worker is the asynq consumer. It renders each event with Compose and
e-mails the recipients through a mailer.Mailer. A failed delivery is
retried by asynq; a malformed payload is not.
*/
package notify
