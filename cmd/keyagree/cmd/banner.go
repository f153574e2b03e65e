package cmd

import (
	"fmt"
	"io"
)

const banner = `
  _                                          
 | | _____ _   _  __ _  __ _ _ __ ___  ___ 
 | |/ / _ \ | | |/ _' |/ _' | '__/ _ \/ _ \
 |   <  __/ |_| | (_| | (_| | | |  __/  __/
 |_|\_\___|\__, |\__,_|\__, |_|  \___|\___|
           |___/       |___/               
`

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "\x1b[34m%s\x1b[0m", banner)
	fmt.Fprintf(w, "\x1b[32m  X25519 Key Agreement Service - Version %s\x1b[0m\n\n", Version)
}
