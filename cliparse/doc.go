// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are resolved in three layers, later layers winning:

 1. a .env file in the working directory, if there is one (joho/godotenv)
 2. environment variables (caarlos0/env)
 3. command-line flags (spf13/pflag)

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres, mongo, redis or memory (default: sqlite)
  - DatabaseURL: Connection string (required unless memory)
  - MongoDatabase: Database name for mongo (default: voting)
  - EligibilityURL: Base URL of the CPF eligibility service
  - EligibilityTimeout: Timeout per eligibility request (default: 5s)
  - EligibilityRetries: Retries after a failed eligibility request (default: 3)
  - SweepInterval: How often expired sessions are closed eagerly (default: 0, off)

An empty EligibilityURL lets every member vote.

# CLI Flags and Environment Variables

	-p, --port              PORT
	-d, --database-url      DATABASE_URL
	-t, --database-type     DATABASE_TYPE
	--mongo-database        MONGO_DATABASE
	--eligibility-url       ELIGIBILITY_URL
	--eligibility-timeout   ELIGIBILITY_TIMEOUT
	--eligibility-retries   ELIGIBILITY_RETRIES
	--sweep-interval        SWEEP_INTERVAL

# Validation

ParseFlags returns an error if:

  - the database type is unknown
  - DATABASE_URL is missing for a persistent store
  - the port is out of range
  - a timeout, retry count or interval is negative
*/
package cliparse
