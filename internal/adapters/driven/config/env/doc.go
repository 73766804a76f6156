// Package env overlays environment variables on another driven.ConfigStore.
//
// Values come from, in order of precedence: the process environment, a .env
// file read with godotenv, and the wrapped store. Only bound keys are
// overridden; every other lookup falls through to the wrapped store.
package env
