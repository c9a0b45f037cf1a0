// Package twitch implements the OAuth2 and Helix API client for the login,
// callback, and refresh flows.
package twitch
