// File: utils/constants.go
package utils

import "time"

// ServiceName is reported by the health endpoint.
const ServiceName = "FastPark"

// HealthCheckInterval is how often the redis health monitor pings.
const HealthCheckInterval = 60 * time.Second
