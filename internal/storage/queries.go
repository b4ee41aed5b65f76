package storage

const (
	upsertAnalyzedListing = `INSERT INTO analyzed_listings (url, title, price, size, relevance_score, investment_strategy, location_name, content_excerpt, keyword_score)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
						ON CONFLICT(url) DO UPDATE SET
								title = EXCLUDED.title,
								price = EXCLUDED.price,
								size = EXCLUDED.size,
								relevance_score = EXCLUDED.relevance_score,
								investment_strategy = EXCLUDED.investment_strategy,
								location_name = EXCLUDED.location_name,
								content_excerpt = EXCLUDED.content_excerpt,
								keyword_score = EXCLUDED.keyword_score,
								analyzed_at = NOW()
						RETURNING id
						`
	selectTopListings = `SELECT url, title, price, size, relevance_score, investment_strategy
						FROM analyzed_listings
						WHERE relevance_score >= $1
						ORDER BY relevance_score DESC, keyword_score DESC
						LIMIT $2`
)
