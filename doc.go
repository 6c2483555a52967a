// Package auth provides a pluggable authentication core: credential
// validation, JWT issuance and verification, and request guards for
// go-router pipelines.
//
// Identity resolution:
//   - UserProvider is the only component that touches stored credentials.
//     The bundled provider/memory store keeps users in process memory; the
//     repository package persists them via Bun. Swapping providers changes
//     nothing else in the stack.
//   - ValidateCredentials fails closed: unknown emails and wrong passwords
//     both resolve to an absent identity, never to an error, so callers
//     cannot distinguish the two cases.
//
// Tokens:
//   - TokenServiceImpl signs HS256 tokens whose claims carry the subject id,
//     email, and roles. Validation rejects expired and malformed tokens with
//     typed errors so guards can map them to responses.
//
// Guards:
//   - Protected authenticates requests by walking an explicit state machine
//     (unchecked, public, authenticated, rejected) and attaches the identity
//     to the request. RequireRoles runs after it and enforces role
//     membership. Route publicity is explicit configuration on the route,
//     never inferred from handler metadata.
package auth
