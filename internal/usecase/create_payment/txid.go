package create_payment

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/m04kA/SMC-EventBookingService/internal/domain"
)

// RandomTransactionID непрозрачная ссылка из криптографически случайных байт в верхнем регистре
type RandomTransactionID struct{}

func (RandomTransactionID) Generate() (string, error) {
	buf := make([]byte, domain.TransactionIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
