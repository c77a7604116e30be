// Package integration contains the Integration bounded context: outbound
// email and webhook calls.
//
// Ports (EmailSender, WebhookCaller) are defined here; adapters live in
// infrastructure/integration.
package integration
