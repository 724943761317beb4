package common

// StoriesPageSize is the fixed number of stories returned by one page of the
// story listing. Pagination offsets advance by this amount.
const StoriesPageSize = 25

// AuthorizationHeaderName carries the login token as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "
