package harvest

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// PageFunc fetches a single page of results. pageToken is empty for the
// first page; the returned token is empty when no pages remain.
type PageFunc[T any] func(ctx context.Context, apiKey, pageToken string) (items []T, nextToken string, err error)

// FetchAll drives a PageFunc through every page, accumulating items in
// page order. On a quota error the rotator advances and the same page is
// retried with the next key; completed pages are never re-fetched. Any
// other error aborts the fetch for this scope.
//
// On failure the items accumulated so far are returned alongside the
// error; callers decide whether a partial harvest is worth storing.
func FetchAll[T any](ctx context.Context, rot *KeyRotator, page PageFunc[T]) ([]T, error) {
	return fetch(ctx, rot, page, false)
}

// FetchPage is the bounded single-page shape: one request of up to the
// API page size, with the same key rotation semantics as FetchAll.
func FetchPage[T any](ctx context.Context, rot *KeyRotator, page PageFunc[T]) ([]T, error) {
	return fetch(ctx, rot, page, true)
}

func fetch[T any](ctx context.Context, rot *KeyRotator, page PageFunc[T], single bool) ([]T, error) {
	key, err := rot.Current()
	if err != nil {
		return nil, err
	}

	var all []T
	token := ""
	for {
		items, next, err := page(ctx, key, token)
		if err != nil {
			if !IsQuotaError(err) {
				return all, err
			}
			key, err = rot.Advance()
			if err != nil {
				return all, ErrKeysExhausted
			}
			// retry the same page with the fresh key
			continue
		}

		all = append(all, items...)
		if single || next == "" {
			return all, nil
		}
		token = next
	}
}

// IsQuotaError reports whether err is the upstream quota / rate limit
// signal, as opposed to any other API failure. Only this class of error
// triggers key rotation.
func IsQuotaError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if gerr.Code != http.StatusForbidden {
		return false
	}
	// A 403 is only a quota signal for these reasons; forbidden for any
	// other reason (e.g. commentsDisabled) must not burn a key.
	for _, e := range gerr.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}
