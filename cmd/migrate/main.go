// Command migrate seeds the default appointment types and rewrites
// appointments stored by older revisions. It is safe to run repeatedly.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"driver-scheduler/internal/auth"
	"driver-scheduler/internal/config"
	"driver-scheduler/internal/database"
	"driver-scheduler/internal/migrate"
)

func main() {
	renameFrom := flag.String("rename-from", "", "rename appointment types with this name")
	renameTo := flag.String("rename-to", "", "new name for -rename-from")
	timeout := flag.Duration("timeout", 5*time.Minute, "abort after this long")
	hashPassword := flag.Bool("hash-password", false, "read a password from stdin, print its DRIVER_PASSWORD_HASH and exit")
	flag.Parse()
	if *hashPassword {
		printHash()
		return
	}
	if (*renameFrom == "") != (*renameTo == "") {
		log.Fatal("-rename-from and -rename-to go together")
	}

	_ = godotenv.Load()
	url, name := config.Database()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	st, err := database.Open(ctx, url, name)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer st.Close(context.Background())
	log.Printf("connected to %s", database.Driver(url))

	res, err := migrate.Run(ctx, st)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if *renameFrom != "" {
		if _, err := migrate.RenameType(ctx, st, *renameFrom, *renameTo); err != nil {
			log.Fatalf("rename: %v", err)
		}
	}
	log.Printf("done: seeded=%d retyped=%d backfilled=%d luggage=%d",
		res.Seeded, res.Retyped, res.Backfilled, res.LuggageNormalized)
}

func printHash() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		log.Fatalf("read password: %v", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		log.Fatal("empty password")
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	fmt.Println(hash)
}
