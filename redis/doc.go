// Package redis wraps go-redis with the service's logging and component
// lifecycle, and offers a JSON-typed key/value store used to cache
// forced-alignment word streams.
package redis
