// Package infra holds the adapters behind the planner's ports: fleet sources
// (csvsource, postgres), the directions provider, metrics sinks, the MQTT
// notifier and error monitoring. Adapters register themselves with the core
// factories from init functions.
package infra
