// Command rescore recomputes the keyword score of every stored analyzed
// listing from its content excerpt. Run it after the scoring vocabulary
// changes so old rows rank consistently with new ones.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/farmscout/farmscout/internal/rank"
)

type analyzedRow struct {
	ID             int64   `db:"id"`
	ContentExcerpt string  `db:"content_excerpt"`
	KeywordScore   float64 `db:"keyword_score"`
}

const (
	selectRows  = `SELECT id, content_excerpt, keyword_score FROM analyzed_listings ORDER BY id`
	updateScore = `UPDATE analyzed_listings SET keyword_score = $1 WHERE id = $2`
)

func main() {
	dsn := flag.String("dsn", os.Getenv("FARMSCOUT_DB_URL"), "PostgreSQL connection string")
	dryRun := flag.Bool("dry-run", false, "Print score changes without writing them")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("no DSN: pass -dsn or set FARMSCOUT_DB_URL")
	}

	db, err := sqlx.Connect("postgres", *dsn)
	if err != nil {
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	var rows []analyzedRow
	if err := db.Select(&rows, selectRows); err != nil {
		log.Fatalf("failed to load analyzed listings: %v", err)
	}
	log.Printf("Loaded %d analyzed listings", len(rows))

	tx, err := db.Beginx()
	if err != nil {
		log.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	changed := 0
	for _, row := range rows {
		score := rank.Score(row.ContentExcerpt)
		if score == row.KeywordScore {
			continue
		}
		changed++
		if *dryRun {
			log.Printf("id=%d: %.2f -> %.2f", row.ID, row.KeywordScore, score)
			continue
		}
		if _, err := tx.Exec(updateScore, score, row.ID); err != nil {
			log.Fatalf("failed to update id=%d: %v", row.ID, err)
		}
	}

	if *dryRun {
		log.Printf("Dry run: %d of %d rows would change", changed, len(rows))
		return
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("failed to commit: %v", err)
	}
	log.Printf("Rescored %d of %d rows", changed, len(rows))
}
