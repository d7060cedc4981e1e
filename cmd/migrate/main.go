package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS user_team_slots CASCADE`,
		`DROP TABLE IF EXISTS pokemon_banco CASCADE`,
		`DROP TABLE IF EXISTS pokemon_ingrediente CASCADE`,
		`DROP TABLE IF EXISTS receita_ingredientes CASCADE`,
		`DROP TABLE IF EXISTS receitas CASCADE`,
		`DROP TABLE IF EXISTS ingredientes CASCADE`,
		`DROP TABLE IF EXISTS pokemon_base CASCADE`,
		`DROP TABLE IF EXISTS main_skills CASCADE`,
		`DROP TABLE IF EXISTS sub_skills CASCADE`,
		`DROP TABLE IF EXISTS natures CASCADE`,
		`DROP TABLE IF EXISTS types CASCADE`,
		`DROP TABLE IF EXISTS ilhas CASCADE`,
		`DROP TABLE IF EXISTS profiles CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id UUID PRIMARY KEY,
			display_name VARCHAR(120),
			avatar_url TEXT,
			theme VARCHAR(30),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS types (
			id SERIAL PRIMARY KEY,
			tipo VARCHAR(50) NOT NULL,
			berry VARCHAR(50)
		)`,

		`CREATE TABLE IF NOT EXISTS main_skills (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(120) NOT NULL,
			descricao TEXT,
			informacao TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS sub_skills (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(120) NOT NULL,
			qualidade VARCHAR(30),
			efeito TEXT,
			informacao TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS natures (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(60) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ilhas (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(120),
			berries TEXT,
			bonus INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS pokemon_base (
			id SERIAL PRIMARY KEY,
			pokemon VARCHAR(120) NOT NULL,
			dex_num INTEGER NOT NULL,
			specialty VARCHAR(60),
			sleep_type VARCHAR(60),
			carry_base INTEGER,
			frequency INTEGER,
			type INTEGER REFERENCES types(id),
			main_skill INTEGER REFERENCES main_skills(id)
		)`,

		`CREATE TABLE IF NOT EXISTS ingredientes (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(120) NOT NULL,
			raridade VARCHAR(30)
		)`,

		`CREATE TABLE IF NOT EXISTS pokemon_ingrediente (
			id SERIAL PRIMARY KEY,
			id_pokemon INTEGER REFERENCES pokemon_base(id) ON DELETE CASCADE,
			id_ingrediente INTEGER REFERENCES ingredientes(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS receitas (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(160) NOT NULL,
			tipo VARCHAR(60) NOT NULL,
			energia_base INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS receita_ingredientes (
			id SERIAL PRIMARY KEY,
			id_receita INTEGER REFERENCES receitas(id) ON DELETE CASCADE,
			id_ingrediente INTEGER REFERENCES ingredientes(id) ON DELETE CASCADE,
			quantidade INTEGER NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS pokemon_banco (
			id SERIAL PRIMARY KEY,
			user_id UUID NOT NULL,
			id_base INTEGER NOT NULL REFERENCES pokemon_base(id),
			level INTEGER,
			nature INTEGER REFERENCES natures(id),
			is_shiny BOOLEAN NOT NULL DEFAULT false,
			gold_seed INTEGER,
			hab_level INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS user_team_slots (
			user_id UUID NOT NULL,
			slot INTEGER NOT NULL CHECK (slot BETWEEN 1 AND 5),
			pokemon_banco_id INTEGER REFERENCES pokemon_banco(id) ON DELETE SET NULL,
			PRIMARY KEY (user_id, slot)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_pokemon_banco_user ON pokemon_banco(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pokemon_base_dex ON pokemon_base(dex_num)`,
		`CREATE INDEX IF NOT EXISTS idx_receitas_tipo ON receitas(tipo)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	fmt.Println("  Created profiles, reference and team tables")

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`INSERT INTO types (tipo, berry) VALUES
			('Grass', 'Durin'),
			('Fire', 'Leppa'),
			('Water', 'Oran'),
			('Electric', 'Grepa'),
			('Normal', 'Persim')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO main_skills (nome, descricao) VALUES
			('Charge Energy S', 'Restores energy to the user'),
			('Ingredient Magnet S', 'Gathers extra ingredients'),
			('Helper Boost', 'Boosts help speed for the whole team')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO natures (nome) VALUES
			('Adamant'), ('Bashful'), ('Bold'), ('Brave'), ('Calm'),
			('Careful'), ('Docile'), ('Gentle'), ('Hardy'), ('Hasty'),
			('Impish'), ('Jolly'), ('Lax'), ('Lonely'), ('Mild'),
			('Modest'), ('Naive'), ('Naughty'), ('Quiet'), ('Quirky'),
			('Rash'), ('Relaxed'), ('Sassy'), ('Serious'), ('Timid')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO ilhas (nome, berries, bonus) VALUES
			('Greengrass Isle', 'Durin,Leppa,Oran', 0),
			('Cyan Beach', 'Oran,Pamtre,Pecha', 0),
			('Taupe Hollow', 'Figy,Leppa,Sitrus', 0),
			('Snowdrop Tundra', 'Pecha,Rawst,Wiki', 0),
			('Lapis Lakeside', 'Durin,Mago,Wiki', 0)
		ON CONFLICT DO NOTHING`,

		`INSERT INTO ingredientes (nome, raridade) VALUES
			('Honey', 'common'),
			('Fancy Apple', 'common'),
			('Snoozy Tomato', 'common'),
			('Soft Potato', 'uncommon'),
			('Moomoo Milk', 'common')
		ON CONFLICT DO NOTHING`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	fmt.Println("  Seeded reference tables")

	return nil
}
