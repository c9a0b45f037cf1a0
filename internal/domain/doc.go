// Package domain defines the core domain types and interfaces.
//
// It holds the User entity, the typed Twitch OAuth payloads, and the ports
// (UserRepository, OAuthClient) implemented by the database and twitch
// packages. Nothing in here touches the network or the database directly.
package domain
