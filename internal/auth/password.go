package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash. New hashes
// are bcrypt; imported accounts keep their werkzeug "method$salt$hex" hashes.
func CheckPassword(hash, password string) bool {
	if strings.HasPrefix(hash, "pbkdf2:") || strings.HasPrefix(hash, "scrypt:") {
		return checkWerkzeug(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func checkWerkzeug(stored, password string) bool {
	method, salt, want, ok := splitWerkzeug(stored)
	if !ok {
		return false
	}

	parts := strings.Split(method, ":")
	var got []byte
	switch parts[0] {
	case "pbkdf2":
		// pbkdf2:<digest>[:<iterations>]
		if len(parts) < 2 || len(parts) > 3 {
			return false
		}
		newHash, size := digest(parts[1])
		if newHash == nil {
			return false
		}
		iterations := 600000
		if len(parts) == 3 {
			n, err := strconv.Atoi(parts[2])
			if err != nil || n <= 0 {
				return false
			}
			iterations = n
		}
		got = pbkdf2.Key([]byte(password), []byte(salt), iterations, size, newHash)
	case "scrypt":
		// scrypt[:<n>:<r>:<p>]
		n, r, p := 1<<15, 8, 1
		if len(parts) == 4 {
			var err error
			if n, err = strconv.Atoi(parts[1]); err != nil {
				return false
			}
			if r, err = strconv.Atoi(parts[2]); err != nil {
				return false
			}
			if p, err = strconv.Atoi(parts[3]); err != nil {
				return false
			}
		} else if len(parts) != 1 {
			return false
		}
		key, err := scrypt.Key([]byte(password), []byte(salt), n, r, p, 64)
		if err != nil {
			return false
		}
		got = key
	default:
		return false
	}

	return subtle.ConstantTimeCompare(got, want) == 1
}

func splitWerkzeug(stored string) (method, salt string, sum []byte, ok bool) {
	fields := strings.Split(stored, "$")
	if len(fields) != 3 {
		return "", "", nil, false
	}
	sum, err := hex.DecodeString(fields[2])
	if err != nil {
		return "", "", nil, false
	}
	return fields[0], fields[1], sum, true
}

func digest(name string) (func() hash.Hash, int) {
	switch name {
	case "sha1":
		return sha1.New, sha1.Size
	case "sha256":
		return sha256.New, sha256.Size
	case "sha512":
		return sha512.New, sha512.Size
	}
	return nil, 0
}
