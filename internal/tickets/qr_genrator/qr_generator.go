package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"

	"ms-boxoffice/internal/models"
)

// QRSize is the side of the rendered PNG in pixels.
const QRSize = 256

var ErrInvalidQR = errors.New("invalid QR payload")

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// Encrypt returns the base64url text that GenerateEncryptedQR renders.
func (q *QRGenerator) Encrypt(ticket models.Ticket) (string, error) {
	data, err := json.Marshal(ticket.QRPayload())
	if err != nil {
		return "", err
	}
	return encryptAES(data, q.secret)
}

func (q *QRGenerator) GenerateEncryptedQR(ticket models.Ticket) ([]byte, error) {
	encrypted, err := q.Encrypt(ticket)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(encrypted, qrcode.Medium, QRSize)
}

// DecryptQRData reverses Encrypt. Payloads made with another secret fail
// to decode.
func (q *QRGenerator) DecryptQRData(encoded string) (*models.TicketQRPayload, error) {
	data, err := decryptAES(encoded, q.secret)
	if err != nil {
		return nil, err
	}
	var payload models.TicketQRPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQR, err)
	}
	return &payload, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQR, err)
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrInvalidQR)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])
	return data, nil
}
