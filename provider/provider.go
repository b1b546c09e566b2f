// Package provider implements translation service clients.
package provider

import "github.com/ZaguanLabs/csvlate"

// Client is the translation capability used by the row processor.
// This is an alias to the main package interface for convenience.
type Client = csvlate.Client

// Request is an alias to the main package type.
type Request = csvlate.Request
