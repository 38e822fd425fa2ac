package mysql

const propertyCols = `
  p.id, p.slug, p.status, p.type, p.year, p.price, p.bedrooms, p.bathrooms,
  p.area, p.location, p.coordinates, p.featured, p.images, p.created_at, p.updated_at`

const translationCols = `
  t.id, t.locale, t.title, t.description, t.subtitle, t.features`

const insertPropertySQL = `
INSERT INTO properties
  (id, slug, status, ` + "`type`, `year`" + `, price, bedrooms, bathrooms, area, location,
   coordinates, featured, images, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updatePropertySQL = `
UPDATE properties SET
  slug        = ?,
  status      = ?,
  ` + "`type`" + `      = ?,
  ` + "`year`" + `      = ?,
  price       = ?,
  bedrooms    = ?,
  bathrooms   = ?,
  area        = ?,
  location    = ?,
  coordinates = ?,
  featured    = ?,
  images      = ?,
  updated_at  = ?
WHERE id = ?
`

const lockPropertySQL = `SELECT id FROM properties WHERE id = ? FOR UPDATE`

const deletePropertySQL = `DELETE FROM properties WHERE id = ?`

const insertTranslationsPrefix = "INSERT INTO property_translations\n  (id, property_id, locale, title, description, subtitle, features)\nVALUES "

// The (property_id, locale) unique key turns the insert into an upsert; the
// row id of an existing locale is kept.
const upsertTranslationsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  title       = VALUES(title),\n" +
	"  description = VALUES(description),\n" +
	"  subtitle    = VALUES(subtitle),\n" +
	"  features    = VALUES(features)\n"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Properties joined with at most one translation row, the one for the
// requested locale.
const listWithTranslationSQL = `
SELECT` + propertyCols + `,` + translationCols + `
FROM properties p
LEFT JOIN property_translations t
  ON t.property_id = p.id AND t.locale = ?
ORDER BY p.created_at DESC, p.id DESC
`

const listBareSQL = `
SELECT` + propertyCols + `
FROM properties p
ORDER BY p.created_at DESC, p.id DESC
`

const getByIDSQL = `
SELECT` + propertyCols + `,` + translationCols + `
FROM properties p
LEFT JOIN property_translations t
  ON t.property_id = p.id AND t.locale = ?
WHERE p.id = ?
`

const getBySlugSQL = `
SELECT` + propertyCols + `,` + translationCols + `
FROM properties p
LEFT JOIN property_translations t
  ON t.property_id = p.id AND t.locale = ?
WHERE p.slug = ?
`

const getBareByIDSQL = `
SELECT` + propertyCols + `
FROM properties p
WHERE p.id = ?
`

const listTranslationsSQL = `
SELECT` + translationCols + `
FROM property_translations t
WHERE t.property_id = ?
ORDER BY FIELD(t.locale, 'en', 'de', 'es'), t.locale
`

// -----------------------------------------------------------------------------
// ADMINS
// -----------------------------------------------------------------------------

const insertAdminSQL = `
INSERT INTO admins (id, email, password_hash, name, created_at)
VALUES (?, ?, ?, ?, ?)
`

const adminCols = `id, email, password_hash, name, created_at`

const findAdminByEmailSQL = `SELECT ` + adminCols + ` FROM admins WHERE email = ?`

const findAdminByIDSQL = `SELECT ` + adminCols + ` FROM admins WHERE id = ?`
