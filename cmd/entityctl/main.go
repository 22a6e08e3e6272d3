// entityctl es la consola del registro de entidades: alta con validación, listado,
// edición en línea, borrado con confirmación y exportación a PDF.
//
// Uso:
//
//	entityctl create --name "Acme Co" --pan ABCDE1234F --phone 9876543210 \
//	    --address "1 Main St" --district Delhi --manager "Jane Doe:9876543211"
//	entityctl list
//	entityctl edit 1736500000000 --district Mumbai
//	entityctl delete 1736500000000
//	entityctl export --out register.pdf
//
// El almacén se elige con STORE_MODE (local | remote) y SLOT_BACKEND (memory | file | redis),
// o con los flags equivalentes.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
