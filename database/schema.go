package database

import (
	"context"
	"log"
)

// EnsureSchema creates required extensions and tables if they do not exist.
func EnsureSchema() {
	if Pool == nil {
		return
	}
	ctx := context.Background()

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            company TEXT,
            job_title TEXT,
            country TEXT,
            phone TEXT,
            bio TEXT,
            website TEXT,
            image_path TEXT,
            onboarding_step INT NOT NULL DEFAULT 0,
            onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS organizations (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            slug TEXT NOT NULL UNIQUE,
            description TEXT,
            logo_path TEXT,
            owner_id BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS organization_members (
            org_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            role TEXT NOT NULL DEFAULT 'member', -- owner | admin | member
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            PRIMARY KEY (org_id, user_id)
        )`,
		`CREATE TABLE IF NOT EXISTS invitations (
            id BIGSERIAL PRIMARY KEY,
            org_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
            email TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'member',
            token TEXT NOT NULL UNIQUE,
            status TEXT NOT NULL DEFAULT 'pending', -- pending | accepted | revoked
            invited_by BIGINT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS invitations_pending_idx
            ON invitations(org_id, email) WHERE status = 'pending'`,
		`CREATE TABLE IF NOT EXISTS user_tax_info (
            user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            country TEXT NOT NULL,
            full_name TEXT NOT NULL,
            cpf_cnpj TEXT,
            postal_code TEXT,
            state TEXT,
            city_code TEXT,
            city TEXT,
            address TEXT,
            number TEXT,
            complement TEXT,
            neighborhood TEXT,
            nif TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS brazilian_city_cache (
            state_code TEXT PRIMARY KEY,
            payload JSONB NOT NULL,
            fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS plans (
            code TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            price_cents BIGINT NOT NULL,
            currency TEXT NOT NULL DEFAULT 'BRL',
            token_points INT NOT NULL DEFAULT 5
        )`,
		`INSERT INTO plans(code, name, price_cents, currency, token_points) VALUES
            ('starter', 'Starter', 4900, 'BRL', 5),
            ('pro', 'Pro', 14900, 'BRL', 20),
            ('scale', 'Scale', 49900, 'BRL', 100)
            ON CONFLICT (code) DO NOTHING`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            plan_code TEXT NOT NULL REFERENCES plans(code),
            status TEXT NOT NULL DEFAULT 'pending', -- pending | active | canceled
            provider_session_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS subscriptions_user_idx ON subscriptions(user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS billing_history (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            nfse_number TEXT,
            description TEXT NOT NULL,
            amount_cents BIGINT NOT NULL,
            currency TEXT NOT NULL DEFAULT 'BRL',
            status TEXT NOT NULL DEFAULT 'paid', -- paid | pending | failed
            issued_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS billing_history_user_idx ON billing_history(user_id, issued_at DESC)`,
		`CREATE TABLE IF NOT EXISTS ai_documents (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            title TEXT NOT NULL,
            chunk_index INT NOT NULL DEFAULT 0,
            content TEXT NOT NULL,
            metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
            embedding vector(768) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS ai_documents_user_idx ON ai_documents(user_id)`,
		`CREATE INDEX IF NOT EXISTS ai_documents_embedding_idx ON ai_documents USING ivfflat (embedding vector_l2_ops) WITH (lists = 100)`,
		`CREATE TABLE IF NOT EXISTS chats (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            title TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
            id BIGSERIAL PRIMARY KEY,
            chat_id BIGINT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            role TEXT NOT NULL,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS generations (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            kind TEXT NOT NULL,
            topic TEXT NOT NULL,
            tone TEXT,
            language TEXT,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS token_quotas (
            user_id BIGINT PRIMARY KEY,
            token_quota BIGINT NOT NULL DEFAULT 50000, -- default 5 points = 50k
            token_used  BIGINT NOT NULL DEFAULT 0,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	}

	for _, s := range stmts {
		if _, err := Pool.Exec(ctx, s); err != nil {
			log.Printf("schema ensure error: %v in stmt: %s", err, s)
		}
	}
}
