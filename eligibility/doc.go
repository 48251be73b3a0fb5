// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package eligibility implements voting.Verifier.

Client asks an external service whether a member's CPF may vote:

	GET {base}/users/{cpf}

	200 {"status": "ABLE_TO_VOTE"}    eligible
	200 {"status": "UNABLE_TO_VOTE"}  not eligible
	404                               voting.ErrCredentialNotFound

Other 4xx responses, bodies that are not JSON and unknown status values
fail immediately. Network errors and 5xx responses are retried with
exponential backoff (github.com/cenkalti/backoff/v5) and returned once the
retries run out. The voting layer reports those as
voting.ErrVerifierUnavailable.

AllowAll is used when no service URL is configured.
*/
package eligibility
