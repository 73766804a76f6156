// Package connectors holds the adapters that bring local material into
// refsheet. The filesystem connector loads the practice files a user selects
// and watches them for changes.
package connectors
