/*
Package clubsdk is the client for the club store HTTP API.

# Client vs Session

  - Client: unauthenticated operations (probes, sign-in, lookups, parent
    self-registration, account registration).
  - Session: operations made with a bearer token from a sign-in.

	client := clubsdk.NewClient("https://club.example.com")

	signedIn, err := client.SignInWithPassword(ctx, "ada@example.com", "secret1")
	if errors.Is(err, clubsdk.ErrInvalidCredentials) {
		// wrong email or password
	}

	session := client.WithToken(signedIn.Token)
	teams, err := session.ListTeams(ctx)

# Errors

API failures are returned as *Error and compare with errors.Is against the
predefined values by code:

	_, err := client.FindTeamByAccessCode(ctx, "AB12CD")
	if errors.Is(err, clubsdk.ErrNotFound) { ... }

Failures to reach the server at all are returned as *TransportError.

# Session expiry

When an authenticated call answers session_expired the client invokes its
OnSessionExpired hook with the rejected token before returning
ErrSessionExpired, so an application can drop its stored credential in one
place. The token lets it ignore credentials it has already replaced.

# Device ID

Every request carries X-Device-ID. NewClient generates a random one; set
Client.DeviceID to a persisted value to keep it stable across runs (clubctl
keeps it in a device-id file next to its saved session).
*/
package clubsdk
