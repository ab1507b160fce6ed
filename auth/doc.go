// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides team identifiers, admin keys and share slugs.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(teamID, salt)
	err := auth.ValidateAdminKey(teamID, adminKey, salt)

The key is URL-safe base64 encoded without padding. The same team ID and salt
always produce the same key, so keys are never stored. Handlers read the key
from the X-Admin-Key header.

# Share Slugs

Share slugs are the public handle for a saved team:

	slug := auth.GenerateShareSlug(teamID, salt)

Slugs are base62 encoded (alphanumeric only) from the first 8 bytes of the
HMAC.

# Team IDs

	id := auth.NewTeamID() // random UUID
*/
package auth
