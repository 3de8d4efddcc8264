// Command geocode-import runs the reverse-geocoding boundary import
// pipeline's CLI.
package main

import "github.com/DaxServer/geocode-commons-categories/internal/cmd"

func main() {
	cmd.Execute()
}
