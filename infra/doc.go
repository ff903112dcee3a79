// Package infra contains technical adapters: the zerolog logger, metric
// exporters, the MQTT event publisher and the roster loader. These packages
// depend only on the interfaces defined in the core packages.
package infra
