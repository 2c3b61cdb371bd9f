// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven ports
// (adapters): collators feed the index registry, the scheduler runs the
// registry on each collator's schedule.
package services
