package booking

import (
	"crypto/sha256"
	"encoding/base32"
	"encoding/json"
	"fmt"
)

// qrPayload is the opaque token encoded into the booking's check-in QR.
type qrPayload struct {
	BookingID string `json:"bookingId"`
	Code      string `json:"code"`
	Checksum  string `json:"checksum"`
}

// bookingCode derives a short human-facing code from the booking's own
// identity, so the same booking always yields the same code. The attempt
// counter salts retries when a generated code collides with an existing
// booking.
func bookingCode(bookingID, trainerID, date, start string, attempt int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%s|%d", bookingID, trainerID, date, start, attempt))
	enc := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
	return "BKG-" + enc[:5]
}

// buildQRPayload produces the check-in token for a booking. The checksum
// binds the code to the booking id so a scanned payload can be verified
// offline.
func buildQRPayload(bookingID, code string) string {
	sum := sha256.Sum256([]byte(bookingID + "|" + code))
	payload := qrPayload{
		BookingID: bookingID,
		Code:      code,
		Checksum:  fmt.Sprintf("%x", sum[:4]),
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

// VerifyQRPayload checks a scanned payload's integrity and returns the
// booking id it names.
func VerifyQRPayload(raw string) (string, error) {
	var payload qrPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", NewInvalidFormatError("qr payload is not valid JSON")
	}
	sum := sha256.Sum256([]byte(payload.BookingID + "|" + payload.Code))
	if fmt.Sprintf("%x", sum[:4]) != payload.Checksum {
		return "", NewInvalidFormatError("qr payload checksum mismatch")
	}
	return payload.BookingID, nil
}
