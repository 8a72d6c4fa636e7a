// Package config defines application configuration structures and loading.
package config
