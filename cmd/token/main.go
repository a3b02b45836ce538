// token emite un JWT de desarrollo firmado con JWT_SECRET.
//
// Uso: go run ./cmd/token -user ID -branch ID [-role admin|supervisor|bodeguero]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "ID del usuario")
	branchID := flag.String("branch", "", "sucursal")
	role := flag.String("role", "bodeguero", "rol: admin | supervisor | bodeguero")
	flag.Parse()
	if *userID == "" || *branchID == "" {
		fmt.Fprintln(os.Stderr, "uso: token -user ID -branch ID [-role rol]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *branchID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
