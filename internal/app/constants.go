package app

// PlayersPerMatch is the exact number of registered players a match needs before cards are dealt.
const PlayersPerMatch = 2
