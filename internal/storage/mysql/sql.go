package mysql

const upsertListingSQL = `
INSERT INTO listings
  (id, position, title, city, country, type, status, price_usd, local_price,
   beds, baths, size, images, agent_name, agent_phone, agent_verified, features)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  position       = VALUES(position),
  title          = VALUES(title),
  city           = VALUES(city),
  country        = VALUES(country),
  type           = VALUES(type),
  status         = VALUES(status),
  price_usd      = VALUES(price_usd),
  local_price    = VALUES(local_price),
  beds           = VALUES(beds),
  baths          = VALUES(baths),
  size           = VALUES(size),
  images         = VALUES(images),
  agent_name     = VALUES(agent_name),
  agent_phone    = VALUES(agent_phone),
  agent_verified = VALUES(agent_verified),
  features       = VALUES(features),
  updated_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Position preserves the catalog's display order; id breaks ties.
const loadListingsSQL = `
SELECT
  id, title, city, country, type, status, price_usd, local_price,
  beds, baths, size, images, agent_name, agent_phone, agent_verified, features
FROM listings
ORDER BY position, id
`

const countListingsSQL = `SELECT COUNT(*) FROM listings`

// -----------------------------------------------------------------------------
// PRUNE
// -----------------------------------------------------------------------------

// %s is a placeholder list, one ? per kept id.
const deleteListingsNotInSQL = `DELETE FROM listings WHERE id NOT IN (%s)`

const deleteAllListingsSQL = `DELETE FROM listings`
