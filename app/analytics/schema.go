package analytics

const createBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	ingestion_date   DATE NOT NULL,
	category         VARCHAR NOT NULL,
	asin             VARCHAR NOT NULL,
	title            VARCHAR NOT NULL,
	author           VARCHAR NOT NULL,
	author_url       VARCHAR,
	series           VARCHAR,
	price            DOUBLE,
	rating           DOUBLE,
	review_count     BIGINT,
	sales_rank       BIGINT,
	release_date     DATE,
	publisher        VARCHAR,
	description      VARCHAR,
	cover_url        VARCHAR,
	product_url      VARCHAR,
	topic_tags       VARCHAR,
	subcategories    VARCHAR,
	keyphrases       VARCHAR,
	estimated_pov    VARCHAR,
	kindle_unlimited BOOLEAN,
	audiobook        BOOLEAN,
	media_verified   BOOLEAN NOT NULL,
	updated_at       TIMESTAMP NOT NULL,
	PRIMARY KEY (ingestion_date, category, asin)
)`

const (
	dropStaging   = `DROP TABLE IF EXISTS books_staging`
	createStaging = `CREATE TEMP TABLE books_staging AS SELECT * FROM books LIMIT 0`

	insertStaging = `
INSERT INTO books_staging (
	ingestion_date, category, asin, title, author, author_url, series, price, rating,
	review_count, sales_rank, release_date, publisher, description, cover_url, product_url,
	topic_tags, subcategories, keyphrases, estimated_pov, kindle_unlimited, audiobook,
	media_verified, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Runs before mergeInsert so rows inserted from staging are not counted twice.
	mergeUpdate = `
UPDATE books SET
	title = s.title,
	author = s.author,
	author_url = s.author_url,
	series = s.series,
	price = s.price,
	rating = s.rating,
	review_count = s.review_count,
	sales_rank = s.sales_rank,
	release_date = s.release_date,
	publisher = s.publisher,
	description = s.description,
	cover_url = s.cover_url,
	product_url = s.product_url,
	topic_tags = s.topic_tags,
	subcategories = s.subcategories,
	keyphrases = s.keyphrases,
	estimated_pov = s.estimated_pov,
	kindle_unlimited = s.kindle_unlimited,
	audiobook = s.audiobook,
	media_verified = s.media_verified,
	updated_at = s.updated_at
FROM books_staging AS s
WHERE books.ingestion_date = s.ingestion_date
	AND books.category = s.category
	AND books.asin = s.asin`

	mergeInsert = `
INSERT INTO books
SELECT s.* FROM books_staging AS s
WHERE NOT EXISTS (
	SELECT 1 FROM books AS b
	WHERE b.ingestion_date = s.ingestion_date
		AND b.category = s.category
		AND b.asin = s.asin
)`

	countBooks = `SELECT COUNT(*) FROM books`
)
