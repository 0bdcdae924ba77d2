package ct

import "os"

func readRaw(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func writeRaw(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
