package infra

import "os"

func Home() string {
	return os.Getenv("HOME")
}
