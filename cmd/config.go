package cmd

import "time"

// Config carries the process configuration read from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// AmqpURL is the RabbitMQ connection string. Empty disables event
	// publishing; lifecycle operations then run with a no-op publisher.
	AmqpURL string

	// EarningsFallbackLegMeters substitutes the agent-to-restaurant leg in
	// earnings calculations when the agent had no reported location at claim
	// time.
	EarningsFallbackLegMeters float64

	// StaleAgentThreshold is the inactivity window after which an agent is
	// swept off duty.
	StaleAgentThreshold time.Duration
}
