package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Recovery slot kinds. The slot on a user row holds at most one pending
// credential at a time; the kind says how to interpret the stored secret.
const (
	// RecoveryKindNone empty slot
	RecoveryKindNone = ""
	// RecoveryKindResetToken slot holds a signed password-reset token
	RecoveryKindResetToken = "reset_token"
	// RecoveryKindOTP slot holds a plaintext 6-digit one-time passcode
	RecoveryKindOTP = "otp"
)

// RecoveryEmpty reports whether the recovery slot is unset
func (u *User) RecoveryEmpty() bool {
	return u.RecoveryKind == RecoveryKindNone || u.RecoverySecret == nil || u.RecoveryExpiresAt == nil
}

// RecoveryExpired reports whether the pending credential has passed its
// expiry. Expired slots are only recognized lazily, on the next verify or
// reset attempt; they are never proactively cleared.
func (u *User) RecoveryExpired() bool {
	if u.RecoveryExpiresAt == nil {
		return true
	}
	return time.Now().After(*u.RecoveryExpiresAt)
}

// HasPendingOTP reports whether the slot holds a live OTP
func (u *User) HasPendingOTP() bool {
	return !u.RecoveryEmpty() && u.RecoveryKind == RecoveryKindOTP
}

// HasPendingResetToken reports whether the slot holds a live reset token
func (u *User) HasPendingResetToken() bool {
	return !u.RecoveryEmpty() && u.RecoveryKind == RecoveryKindResetToken
}

// PendingRecovery builds the column set that writes a pending credential
// into the recovery slot, replacing whatever was there before.
func PendingRecovery(kind, secret string, expiresAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"recovery_kind":       kind,
		"recovery_secret":     secret,
		"recovery_expires_at": expiresAt,
	}
}

// ClearedRecovery builds the column set that empties the recovery slot
func ClearedRecovery() map[string]interface{} {
	return map[string]interface{}{
		"recovery_kind":       RecoveryKindNone,
		"recovery_secret":     nil,
		"recovery_expires_at": nil,
	}
}

// GenerateOTP generates a 6-digit numeric one-time passcode, uniformly
// sampled over [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
