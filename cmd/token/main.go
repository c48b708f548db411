package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"employee-crud-starter/internal/core/auth"
	"employee-crud-starter/internal/core/config"
)

// 为写接口签发 Bearer token：token -sub alice
func main() {
	sub := flag.String("sub", "cli", "token subject")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "jwt.secret is empty: write endpoints are not protected")
		os.Exit(1)
	}
	tok, err := auth.FromConfig(cfg.JWT).Issue(*sub)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
