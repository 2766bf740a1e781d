// Command enc encrypts a value (typically a provider client secret) with
// the secretbox master key, for pasting into the YAML config.
//
//	SECRETBOX_MASTER_KEY=... enc "my-client-secret"
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	sec "github.com/dastyn/socialauth/internal/security/secretbox"
)

func main() {
	_ = godotenv.Load(".env")

	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <plaintext>", os.Args[0])
	}

	enc, err := sec.Encrypt(os.Args[1])
	if err != nil {
		log.Fatalf("encrypt: %v", err)
	}
	fmt.Println(enc)
}
