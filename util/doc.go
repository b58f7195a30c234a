// Package util holds small helpers shared by the server and the providers.
package util
