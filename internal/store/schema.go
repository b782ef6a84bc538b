package store

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS surahs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	number INTEGER NOT NULL UNIQUE CHECK (number BETWEEN 1 AND 114),
	name_arabic TEXT NOT NULL,
	name_tajik TEXT NOT NULL,
	name_english TEXT NOT NULL,
	revelation_type TEXT NOT NULL CHECK (revelation_type IN ('Meccan', 'Medinan')),
	verses_count INTEGER NOT NULL,
	description TEXT
);

CREATE TABLE IF NOT EXISTS verses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	surah_id INTEGER NOT NULL,
	verse_number INTEGER NOT NULL CHECK (verse_number >= 1),
	arabic_text TEXT NOT NULL,
	tajik_text TEXT NOT NULL,
	transliteration TEXT,
	translation_alt TEXT,
	tafsir TEXT,
	page INTEGER,
	juz INTEGER,
	audio_url TEXT,
	unique_key TEXT NOT NULL UNIQUE,
	-- case folded tajik_text
	tajik_search TEXT NOT NULL DEFAULT '',
	UNIQUE (surah_id, verse_number),
	FOREIGN KEY (surah_id) REFERENCES surahs(id)
);

CREATE INDEX IF NOT EXISTS idx_verses_surah_id ON verses(surah_id);

CREATE TABLE IF NOT EXISTS bookmarks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	verse_id INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (user_id, verse_id),
	FOREIGN KEY (verse_id) REFERENCES verses(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id);

CREATE TABLE IF NOT EXISTS search_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	query TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_search_history_user_id ON search_history(user_id, created_at);

CREATE TABLE IF NOT EXISTS word_analysis (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	verse_id INTEGER NOT NULL,
	word_position INTEGER NOT NULL,
	word_text TEXT NOT NULL,
	transliteration TEXT,
	translation TEXT,
	root TEXT,
	part_of_speech TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (verse_id, word_position),
	FOREIGN KEY (verse_id) REFERENCES verses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS user_settings (
	user_id INTEGER PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	data BLOB,
	expires_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON cache(expires_at);
`

// sqliteFTS is applied separately; builds without FTS5 reject it and fall
// back to basic search.
const sqliteFTS = `
CREATE VIRTUAL TABLE IF NOT EXISTS verses_fts USING fts5(
	verse_id UNINDEXED,
	arabic,
	tajik,
	tokenize = 'unicode61 remove_diacritics 0'
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS surahs (
	id BIGSERIAL PRIMARY KEY,
	number INTEGER NOT NULL UNIQUE CHECK (number BETWEEN 1 AND 114),
	name_arabic TEXT NOT NULL,
	name_tajik TEXT NOT NULL,
	name_english TEXT NOT NULL,
	revelation_type TEXT NOT NULL CHECK (revelation_type IN ('Meccan', 'Medinan')),
	verses_count INTEGER NOT NULL,
	description TEXT
);

CREATE TABLE IF NOT EXISTS verses (
	id BIGSERIAL PRIMARY KEY,
	surah_id BIGINT NOT NULL REFERENCES surahs(id),
	verse_number INTEGER NOT NULL CHECK (verse_number >= 1),
	arabic_text TEXT NOT NULL,
	tajik_text TEXT NOT NULL,
	transliteration TEXT,
	translation_alt TEXT,
	tafsir TEXT,
	page INTEGER,
	juz INTEGER,
	audio_url TEXT,
	unique_key TEXT NOT NULL UNIQUE,
	tajik_search TEXT NOT NULL DEFAULT '',
	UNIQUE (surah_id, verse_number)
);

CREATE INDEX IF NOT EXISTS idx_verses_surah_id ON verses(surah_id);

CREATE TABLE IF NOT EXISTS bookmarks (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	verse_id BIGINT NOT NULL REFERENCES verses(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	UNIQUE (user_id, verse_id)
);

CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id);

CREATE TABLE IF NOT EXISTS search_history (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	query TEXT NOT NULL,
	created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_search_history_user_id ON search_history(user_id, created_at);

CREATE TABLE IF NOT EXISTS word_analysis (
	id BIGSERIAL PRIMARY KEY,
	verse_id BIGINT NOT NULL REFERENCES verses(id) ON DELETE CASCADE,
	word_position INTEGER NOT NULL,
	word_text TEXT NOT NULL,
	transliteration TEXT,
	translation TEXT,
	root TEXT,
	part_of_speech TEXT,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	UNIQUE (verse_id, word_position)
);

CREATE TABLE IF NOT EXISTS user_settings (
	user_id BIGINT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	data BYTEA,
	expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON cache(expires_at);
`
