package main

import (
	"fmt"
	"log"
	"os"

	auth "app/internal/usecase/auth_usecase"
)

// ユーザー登録用のbcryptハッシュを作る小物。
// 使い方: go run ./cmd/genpassword <password>
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: genpassword <password>")
	}

	hasher := auth.NewBcryptPasswordHasher(12)
	hash, err := hasher.Hash(os.Args[1])
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	fmt.Println(hash)
}
