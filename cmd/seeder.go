package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{
				"training_participants",
				"trainings",
				"employee_qualifications",
				"qualification_trainers",
				"additional_skill_assignments",
				"qualifications",
				"employees",
			} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		employees := []struct {
			name       string
			jobTitleID int64
			deptID     int64
		}{
			{"Anna Brandt", 1, 1},
			{"Bernd Keller", 1, 1},
			{"Clara Vogt", 2, 1},
			{"Daniel Roth", 2, 2},
		}
		for _, e := range employees {
			var exists int
			row := db.QueryRow("SELECT 1 FROM employees WHERE name = $1", e.name)
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if _, err := db.Exec(
				"INSERT INTO employees (name, job_title_id, department_id, is_trainer, is_active, created_at, updated_at) VALUES ($1, $2, $3, false, true, now(), now())",
				e.name, e.jobTitleID, e.deptID,
			); err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.name, err)
			}
			fmt.Println("Seeded employee:", e.name)
		}

		qualifications := []struct {
			name           string
			origin         string
			validityMonths int
			jobTitleID     *int64
			skillID        *int64
		}{
			{"First Aid", "mandatory", 24, nil, nil},
			{"Hygiene Certificate", "job_title", 12, ptrInt64(1), nil},
			{"Fire Safety Officer", "additional_skill", 36, nil, ptrInt64(10)},
		}
		for _, q := range qualifications {
			var exists int
			row := db.QueryRow("SELECT 1 FROM qualifications WHERE name = $1", q.name)
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if _, err := db.Exec(
				"INSERT INTO qualifications (name, description, validity_months, origin, job_title_id, additional_skill_id, created_at, updated_at) VALUES ($1, '', $2, $3, $4, $5, now(), now())",
				q.name, q.validityMonths, q.origin, q.jobTitleID, q.skillID,
			); err != nil {
				log.Fatalf("failed to insert qualification %s: %v", q.name, err)
			}
			fmt.Println("Seeded qualification:", q.name)
		}

		fmt.Println("Seeding complete")
	},
}

func ptrInt64(v int64) *int64 {
	return &v
}
