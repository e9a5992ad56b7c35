package database

// schema is applied in one transaction on open. Embeddings are stored as
// little-endian float32 blobs; their length varies with the provider so the
// column is a plain BLOB.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS comparisons (
        id TEXT PRIMARY KEY,
        provider TEXT NOT NULL,
        model TEXT NOT NULL,
        task_type TEXT NOT NULL,
        dimensions INTEGER NOT NULL,
        layout TEXT NOT NULL,
        created_at INTEGER NOT NULL
    )`,

	`CREATE TABLE IF NOT EXISTS comparison_texts (
        comparison_id TEXT NOT NULL,
        idx INTEGER NOT NULL,
        content TEXT NOT NULL,
        embedding BLOB,
        PRIMARY KEY (comparison_id, idx),
        FOREIGN KEY (comparison_id) REFERENCES comparisons(id)
    )`,

	`CREATE TABLE IF NOT EXISTS comparison_similarities (
        comparison_id TEXT NOT NULL,
        text1_index INTEGER NOT NULL,
        text2_index INTEGER NOT NULL,
        similarity REAL NOT NULL,
        PRIMARY KEY (comparison_id, text1_index, text2_index),
        FOREIGN KEY (comparison_id) REFERENCES comparisons(id)
    )`,

	`CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at)`,
}
