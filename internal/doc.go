// Package internal contains the core implementation packages for herobook.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the herobook CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - types: Hero props, language entries and the Optional value type
//   - components/hero: the Hero banner as a templ/gomponents component
//   - stories: fixtures and the catalog of Hero stories built from them
//   - inspect: reads rendered markup back and checks it against props
//   - registry: the live story catalog and its change events
//   - renderer: story rendering to fragments and preview pages
//   - server: HTTP server, WebSocket live reload and middleware
//   - watcher: file system monitoring with debouncing
//   - snapshot: headless browser screenshots of every story
//   - config, logging, errors, validation, version, ui: ambient support
//
// # Inter-Package Communication
//
//   - Watcher reports fixtures changes to the server
//   - Server rebuilds the catalog and replaces it in the registry
//   - Registry emits one event per added, changed or removed story
//   - Server turns registry events into WebSocket reload messages
//
// Rendering is a pure function of a story's props and the display budget;
// the same story always produces the same markup.
package internal
